package conservation

import "strings"

// NormalizeRecord maps one raw contract row to a record without applying the
// inclusion gate.
func NormalizeRecord(row RawRow) ConservationRecord {
	// The first non-empty of PAID_DATE and DATE is authoritative even when
	// it does not parse.
	paidCol := row.Get(ColPaidDate)
	if strings.TrimSpace(paidCol) == "" {
		paidCol = row.Get(ColDate)
	}
	paid := ParseDate(paidCol)
	start := ParseDate(row.Get(ColStart))

	effective := paid
	if effective == nil {
		effective = start
	}

	redN := row.Get(ColReductionN)
	redP := row.Get(ColReductionP)
	redS := row.Get(ColReductionS)

	return ConservationRecord{
		Farm:      orUnknown(row.Get(ColFarm)),
		City:      orUnknown(row.Get(ColCity)),
		Practice:  orUnknown(strings.TrimSpace(row.Get(ColPractice))),
		FirstName: row.Get(ColFirstName),
		LastName:  row.Get(ColLastName),
		Segment:   row.Get(ColSegment),

		EffectiveDate: effective,
		StartDate:     start,
		EndDate:       ParseDate(row.Get(ColEnd)),
		PaidDate:      paid,

		Amount319:   ParseCurrency(row.Get(ColAmount319)),
		AmountCWSRF: ParseCurrency(row.Get(ColAmountCWSRF)),
		AmountLocal: ParseCurrency(row.Get(ColAmountLocal)),
		TotalAmount: ParseCurrency(row.Get(ColTotalAmount)),

		Acres:               ParseFloat(row.Get(ColAcres)),
		NitrogenReduction:   ParseFloat(redN),
		PhosphorusReduction: ParseFloat(redP),
		SedimentReduction:   ParseFloat(redS),

		Latitude:  ParseFloat(row.Get(ColLatitude)),
		Longitude: ParseFloat(row.Get(ColLongitude)),

		HasDataQualityFlag:          row.Get(ColQualityFlag) == FlagSentinel,
		HasMissingEnvironmentalData: redN == FlagSentinel || redP == FlagSentinel || redS == FlagSentinel,
	}
}

// Normalize converts raw contract rows into the canonical batch. Rows that
// fail the inclusion gate are dropped; survivors keep their input order and
// duplicates are kept.
func Normalize(rows []RawRow) []ConservationRecord {
	out := make([]ConservationRecord, 0, len(rows))
	for _, row := range rows {
		rec := NormalizeRecord(row)
		if !rec.Included() {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// NormalizeAllocations converts raw funding-allocation rows. Rows missing a
// practice, fund name or segment are dropped.
func NormalizeAllocations(rows []RawRow) []FundingAllocation {
	out := make([]FundingAllocation, 0, len(rows))
	for _, row := range rows {
		a := FundingAllocation{
			Practice:     strings.TrimSpace(row.Get(ColPractice)),
			PracticeType: strings.TrimSpace(row.Get(ColPracticeType)),
			FundName:     strings.TrimSpace(row.Get(ColFundName)),
			Allocated:    ParseCurrency(row.Get(ColAllocated)),
			Used:         ParseCurrency(row.Get(ColUsed)),
			Available:    ParseCurrency(row.Get(ColAvailable)),
			Segment:      strings.TrimSpace(row.Get(ColFundSegment)),
		}
		if a.Practice == "" || a.FundName == "" || a.Segment == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
