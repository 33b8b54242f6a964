// Package dataprocessing reads worksheets into header-keyed records.
//
// Every workbook the interview tool consumes (the candidate roster, a per-interviewer
// result file, an uploaded merge input) is a table whose first non-empty row is the
// header. ParseFile and ParseReader turn one sheet into a Sheet whose Records are
// maps from header name to cell text, so callers can treat missing columns as empty
// values instead of failing.
//
// # Usage
//
//	sheet, err := dataprocessing.ParseFile("roster.xlsx", "")
//	if err != nil {
//	    return err
//	}
//	for _, rec := range sheet.Records {
//	    fmt.Println(rec.Get("이름"))
//	}
package dataprocessing
