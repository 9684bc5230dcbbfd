// Package cases feeds parameterized tests from directories of case files.
//
// A case file holds one input and one expected output:
//
//	{"request": [1, 2], "response": 3}
//
// and a test consumes every file of its case directory:
//
//	func TestAdd_WhenBothPositive(t *testing.T) {
//		cases.Run(t, func(t *testing.T, in [2]float64, want float64, file string) {
//			if got := calc.Add(in[0], in[1]); got != want {
//				t.Errorf("Add(%v) = %v, want %v %s", in, got, want, file)
//			}
//		})
//	}
//
// Unless a directory is given with WithDirectory, the case directory is
// derived from the test: the package path relative to the module root, plus
// the test name up to the first "_When". The test above, in package
// example.com/calc/ops, reads example.com/calc's ops/TestAdd/*.json.
//
// The last parameter always receives the case file path wrapped in "####"
// markers so it stands out in failure messages.
//
// DescribeTable does the same for Ginkgo tables.
package cases
