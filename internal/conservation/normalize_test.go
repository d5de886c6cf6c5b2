package conservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func contractRow(farm, practice, paid string) RawRow {
	return RawRow{
		ColFarm:     farm,
		ColPractice: practice,
		ColPaidDate: paid,
	}
}

func TestNormalizeRecord_Fields(t *testing.T) {
	row := RawRow{
		ColPaidDate:    "2021-05-01",
		ColStart:       "2021-03-15",
		ColEnd:         "2023-03-15",
		ColAmount319:   "$6,000",
		ColAmountCWSRF: "$4,000.50",
		ColAmountLocal: "$2,000",
		ColTotalAmount: "$12,000.50",
		ColAcres:       "40",
		ColReductionN:  "120.5",
		ColReductionP:  "30",
		ColReductionS:  "8",
		ColLatitude:    "44.36789",
		ColLongitude:   "-100.3512",
		ColFarm:        "Prairie Acres",
		ColCity:        "Pierre",
		ColPractice:    "  Cover Crop  ",
		ColFirstName:   "Ada",
		ColLastName:    "Olson",
		ColSegment:     "2",
		ColQualityFlag: "*",
	}

	rec := NormalizeRecord(row)

	assert.Equal(t, "Prairie Acres", rec.Farm)
	assert.Equal(t, "Pierre", rec.City)
	assert.Equal(t, "Cover Crop", rec.Practice)
	assert.Equal(t, "Ada", rec.FirstName)
	assert.Equal(t, "Olson", rec.LastName)
	assert.Equal(t, "2", rec.Segment)

	require.NotNil(t, rec.EffectiveDate)
	require.NotNil(t, rec.PaidDate)
	require.NotNil(t, rec.StartDate)
	require.NotNil(t, rec.EndDate)
	assert.True(t, date(2021, time.May, 1).Equal(*rec.EffectiveDate))
	assert.True(t, date(2021, time.May, 1).Equal(*rec.PaidDate))
	assert.True(t, date(2021, time.March, 15).Equal(*rec.StartDate))
	assert.True(t, date(2023, time.March, 15).Equal(*rec.EndDate))

	assert.InDelta(t, 6000, rec.Amount319, 0.001)
	assert.InDelta(t, 4000.5, rec.AmountCWSRF, 0.001)
	assert.InDelta(t, 2000, rec.AmountLocal, 0.001)
	assert.InDelta(t, 12000.5, rec.TotalAmount, 0.001)
	assert.InDelta(t, 40, rec.Acres, 0.001)
	assert.InDelta(t, 120.5, rec.NitrogenReduction, 0.001)
	assert.InDelta(t, 30, rec.PhosphorusReduction, 0.001)
	assert.InDelta(t, 8, rec.SedimentReduction, 0.001)
	assert.InDelta(t, 44.36789, rec.Latitude, 0.000001)
	assert.InDelta(t, -100.3512, rec.Longitude, 0.000001)

	assert.True(t, rec.HasDataQualityFlag)
	assert.False(t, rec.HasMissingEnvironmentalData)
	assert.True(t, rec.Included())
}

func TestNormalizeRecord_Defaults(t *testing.T) {
	rec := NormalizeRecord(RawRow{})

	assert.Equal(t, Unknown, rec.Farm)
	assert.Equal(t, Unknown, rec.City)
	assert.Equal(t, Unknown, rec.Practice)
	assert.Empty(t, rec.Segment)
	assert.Nil(t, rec.EffectiveDate)
	assert.Nil(t, rec.PaidDate)
	assert.Zero(t, rec.TotalAmount)
	assert.Zero(t, rec.Acres)
	assert.Zero(t, rec.Latitude)
	assert.False(t, rec.HasDataQualityFlag)
	assert.False(t, rec.HasMissingEnvironmentalData)
	assert.False(t, rec.Included())
}

func TestNormalizeRecord_DateFallback(t *testing.T) {
	tests := []struct {
		name      string
		row       RawRow
		wantPaid  *time.Time
		wantEffec *time.Time
	}{
		{
			name:      "paid date wins",
			row:       RawRow{ColPaidDate: "2021-05-01", ColDate: "2020-01-01", ColStart: "2019-01-01"},
			wantPaid:  ptr(date(2021, time.May, 1)),
			wantEffec: ptr(date(2021, time.May, 1)),
		},
		{
			name:      "generic date column",
			row:       RawRow{ColDate: "2020-01-01", ColStart: "2019-01-01"},
			wantPaid:  ptr(date(2020, time.January, 1)),
			wantEffec: ptr(date(2020, time.January, 1)),
		},
		{
			name:      "unparseable paid date shadows generic date",
			row:       RawRow{ColPaidDate: "garbage", ColDate: "2020-01-01"},
			wantPaid:  nil,
			wantEffec: nil,
		},
		{
			name:      "out of window paid date shadows generic date and uses start",
			row:       RawRow{ColPaidDate: "1900-01-01", ColDate: "2021-05-01", ColStart: "2022-01-10"},
			wantPaid:  nil,
			wantEffec: ptr(date(2022, time.January, 10)),
		},
		{
			name:      "blank paid date uses generic date",
			row:       RawRow{ColPaidDate: "  ", ColDate: "2021-05-01", ColStart: "2022-01-10"},
			wantPaid:  ptr(date(2021, time.May, 1)),
			wantEffec: ptr(date(2021, time.May, 1)),
		},
		{
			name:      "unpaid practice uses start date",
			row:       RawRow{ColPaidDate: "", ColDate: "", ColStart: "2022-01-10"},
			wantPaid:  nil,
			wantEffec: ptr(date(2022, time.January, 10)),
		},
		{
			name:      "out of window paid date uses start date",
			row:       RawRow{ColPaidDate: "1900-01-01", ColStart: "2022-01-10"},
			wantPaid:  nil,
			wantEffec: ptr(date(2022, time.January, 10)),
		},
		{
			name:      "nothing valid",
			row:       RawRow{ColPaidDate: "9999-01-01", ColStart: "n/a"},
			wantPaid:  nil,
			wantEffec: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NormalizeRecord(tt.row)
			assertDate(t, tt.wantPaid, rec.PaidDate)
			assertDate(t, tt.wantEffec, rec.EffectiveDate)
		})
	}
}

func TestNormalizeRecord_StartFallbackEqualsStartDate(t *testing.T) {
	rec := NormalizeRecord(RawRow{ColFarm: "F", ColPractice: "P", ColStart: "2022-01-10"})
	require.NotNil(t, rec.EffectiveDate)
	require.NotNil(t, rec.StartDate)
	assert.True(t, rec.StartDate.Equal(*rec.EffectiveDate))
}

func TestNormalizeRecord_MissingEnvironmentalData(t *testing.T) {
	for _, col := range []string{ColReductionN, ColReductionP, ColReductionS} {
		t.Run(col, func(t *testing.T) {
			row := RawRow{ColReductionN: "10", ColReductionP: "5", ColReductionS: "2"}
			row[col] = FlagSentinel
			assert.True(t, NormalizeRecord(row).HasMissingEnvironmentalData)
		})
	}

	// Zero is a real value, not missing data.
	rec := NormalizeRecord(RawRow{ColReductionN: "0", ColReductionP: "0", ColReductionS: "0"})
	assert.False(t, rec.HasMissingEnvironmentalData)

	// Only the exact sentinel counts.
	rec = NormalizeRecord(RawRow{ColReductionN: "**", ColQualityFlag: "x"})
	assert.False(t, rec.HasMissingEnvironmentalData)
	assert.False(t, rec.HasDataQualityFlag)
}

func TestNormalize_InclusionGate(t *testing.T) {
	rows := []RawRow{
		contractRow("Farm A", "Cover Crop", "2021-05-01"),
		contractRow("", "Cover Crop", "2021-05-01"),
		contractRow("Farm B", "", "2021-05-01"),
		contractRow("Farm C", "   ", "2021-05-01"),
		contractRow("Farm D", "Cover Crop", ""),
		contractRow("Farm E", "Cover Crop", "2030-01-01"),
		contractRow("Unknown", "Cover Crop", "2021-05-01"),
		contractRow("Farm F", "Unknown", "2021-05-01"),
		contractRow("Farm G", "Grassed Waterway", "2019-07-04"),
	}

	got := Normalize(rows)

	require.Len(t, got, 2)
	assert.Equal(t, "Farm A", got[0].Farm)
	assert.Equal(t, "Farm G", got[1].Farm)
	for _, r := range got {
		assert.NotEqual(t, Unknown, r.Farm)
		assert.NotEqual(t, Unknown, r.Practice)
		assert.NotNil(t, r.EffectiveDate)
	}
}

func TestNormalize_KeepsDuplicatesAndOrder(t *testing.T) {
	var rows []RawRow
	for i := 0; i < 5; i++ {
		rows = append(rows, contractRow("Same Farm", "Cover Crop", "2021-05-01"))
	}
	rows = append(rows, contractRow("Other Farm", "Terrace", "2020-05-01"))

	got := Normalize(rows)
	require.Len(t, got, 6)
	assert.Equal(t, "Other Farm", got[5].Farm)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	row := RawRow{ColFarm: "F", ColPractice: " P ", ColPaidDate: "2021-01-01"}
	Normalize([]RawRow{row})
	assert.Equal(t, " P ", row[ColPractice])
	assert.Len(t, row, 3)
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRawRow_GetCaseInsensitive(t *testing.T) {
	row := RawRow{" paid_date ": "2021-05-01", "Farm": "Prairie"}
	assert.Equal(t, "2021-05-01", row.Get(ColPaidDate))
	assert.Equal(t, "Prairie", row.Get(ColFarm))
	assert.Equal(t, "", row.Get(ColCity))
}

func TestNormalizeAllocations(t *testing.T) {
	rows := []RawRow{
		{"BMP": "Cover Crop", "BMP Type": "Cropland", "Fund Name": "319", "Amount Allocated": "$10,000", "Amount Used": "$4,000", "Amount Available": "$6,000", "Segment": "1"},
		{"BMP": "Terrace", "Fund Name": "Local", "Amount Allocated": "$5,000", "Segment": "2"},
		{"BMP": "", "Fund Name": "319", "Segment": "1"},
		{"BMP": "Cover Crop", "Fund Name": "", "Segment": "1"},
		{"BMP": "Cover Crop", "Fund Name": "319", "Segment": ""},
	}

	got := NormalizeAllocations(rows)
	require.Len(t, got, 2)

	assert.Equal(t, FundingAllocation{
		Practice: "Cover Crop", PracticeType: "Cropland", FundName: "319",
		Allocated: 10000, Used: 4000, Available: 6000, Segment: "1",
	}, got[0])
	assert.Equal(t, "Terrace", got[1].Practice)
	assert.Empty(t, got[1].PracticeType)
	assert.Zero(t, got[1].Used)
}

func ptr(t time.Time) *time.Time { return &t }

func assertDate(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
}
