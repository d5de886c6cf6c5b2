package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/geo"
)

const (
	formatGeoJSON   = "geojson"
	formatShapefile = "shp"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export farm location clusters as GeoJSON or a shapefile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}
		seg, _ := cmd.Flags().GetString("segment")
		out, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("out")
		if err := checkFormat(out, formatGeoJSON, formatShapefile); err != nil {
			return err
		}
		if out == formatShapefile && (path == "" || path == "-") {
			return eris.New("export: --out is required for shapefiles")
		}

		snap, err := loadSnapshot(cmd.Context(), cfg, seg)
		if err != nil {
			return err
		}
		return exportClusters(os.Stdout, out, path, snap.Views.Clusters)
	},
}

// exportClusters writes clusters to path, or to stdout for GeoJSON when
// path is empty or "-".
func exportClusters(stdout io.Writer, out, path string, clusters []conservation.LocationCluster) error {
	if out == formatShapefile {
		return geo.WriteShapefile(path, clusters)
	}

	if path == "" || path == "-" {
		return geo.WriteGeoJSON(stdout, clusters)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := geo.WriteGeoJSON(f, clusters); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}
	zap.L().Info("export: wrote geojson", zap.String("path", path), zap.Int("features", len(clusters)))
	return nil
}

func init() {
	exportCmd.Flags().String("segment", "", "segment to export: all, 1, 2 or 3 (default from config)")
	exportCmd.Flags().String("format", formatGeoJSON, "output format: geojson or shp")
	exportCmd.Flags().String("out", "", "output path (geojson defaults to stdout)")
	rootCmd.AddCommand(exportCmd)
}
