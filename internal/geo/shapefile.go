package geo

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sdshc/costshare/internal/conservation"
)

// wgs84PRJ is the projection sidecar for EPSG:4326.
const wgs84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// dBase field names are limited to 10 characters.
var shapeFields = []shp.Field{
	shp.StringField("FARM", 80),
	shp.StringField("CITY", 60),
	shp.NumberField("CONTRACTS", 8),
	shp.StringField("YEARS", 80),
	shp.StringField("PRACTICES", 254),
	shp.FloatField("FUNDING", 16, 2),
	shp.FloatField("ACRES", 12, 2),
	shp.StringField("COLOR", 7),
	shp.FloatField("RADIUS", 6, 2),
}

// WriteShapefile writes one point per cluster to path (.shp, with the .shx,
// .dbf and .prj sidecars next to it).
func WriteShapefile(path string, clusters []conservation.LocationCluster) error {
	if !strings.HasSuffix(strings.ToLower(path), ".shp") {
		path += ".shp"
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "geo: create shapefile %s", path)
	}
	closed := false
	defer func() {
		if !closed {
			w.Close()
		}
	}()

	if err := w.SetFields(shapeFields); err != nil {
		return eris.Wrap(err, "geo: set shapefile fields")
	}

	for _, c := range clusters {
		row := int(w.Write(&shp.Point{X: c.Longitude, Y: c.Latitude}))
		values := []any{
			truncate(c.Farm(), 80),
			truncate(c.City(), 60),
			c.Contracts(),
			truncate(joinInts(c.Years()), 80),
			truncate(strings.Join(c.Practices(), "; "), 254),
			c.Funding,
			c.Acres,
			MarkerColor(c.Funding),
			MarkerRadius(c.Acres),
		}
		for field, v := range values {
			if err := w.WriteAttribute(row, field, v); err != nil {
				return eris.Wrapf(err, "geo: write attribute %d of cluster %s", field, c.Key)
			}
		}
	}

	w.Close()
	closed = true

	base := strings.TrimSuffix(path, filepath.Ext(path))
	// go-shp names the attribute table base+"dbf", without the dot.
	if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
		return eris.Wrap(err, "geo: rename attribute table")
	}

	prj := base + ".prj"
	if err := os.WriteFile(prj, []byte(wgs84PRJ), 0o644); err != nil {
		return eris.Wrap(err, "geo: write projection file")
	}

	zap.L().Info("geo: wrote shapefile", zap.String("path", path), zap.Int("points", len(clusters)))
	return nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
