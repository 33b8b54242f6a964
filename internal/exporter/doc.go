// Package exporter writes tabular results to disk or to an HTTP response.
//
// Workbook builds xlsx files sheet by sheet using excelize stream writers. It backs
// the per-interviewer result file, the merged workbook produced by the merge CLI,
// and the downloads offered by the web surface.
//
// CSVWriter writes CSV with an optional UTF-8 BOM so that Excel opens Korean text
// correctly. The merge CLI uses it for the optional summary CSV.
//
// Example usage:
//
//	wb := exporter.NewWorkbook()
//	defer wb.Close()
//	if err := wb.AddSheet("Summary", headers, rows); err != nil {
//	    return err
//	}
//	return wb.SaveAs("summary.xlsx")
package exporter
