// Package shared holds helpers used across packages.
//
// The testutil subpackage provides what the package tests share:
//
//   - BufferedSlogHandler and the Assert* helpers capture and check slog output
//   - WriteWorkbook, ReadSheet and SheetList build and inspect xlsx fixtures
//
// Example:
//
//	func TestSave(t *testing.T) {
//		logger, handler := testutil.NewTestLogger(t)
//		path := testutil.WriteWorkbook(t, t.TempDir(), "roster.xlsx",
//			testutil.SheetData{Name: "Sheet1", Rows: [][]interface{}{{"이름"}, {"Kim"}}})
//		// ...
//		testutil.AssertNoErrors(t, handler)
//	}
//
// Nothing here may import domain packages.
package shared
