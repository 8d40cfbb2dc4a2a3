// Package runner executes spec documents against a caller-supplied handler.
//
// A handler receives one example at a time with its When inputs and the
// background context resolved for it, and records one actual output per
// declared Then name:
//
//	func calc(ctx context.Context, ex *runner.Example) error {
//		input, err := ex.Input("input")
//		if err != nil {
//			return err
//		}
//		value, err := evaluate(input, ex.Env)
//		if err != nil {
//			ex.Fail("result", err)
//			return nil
//		}
//		ex.Output("result", value)
//		return nil
//	}
//
// In compare mode each recorded output is checked against the document's
// expected text. In rewrite mode the document is patched in place so the
// expected text matches what the handler produced. Test binaries usually
// bind documents through TestSpecs, which switches modes via the
// REWRITE_SPECS environment variable:
//
//	func TestCalculator(t *testing.T) {
//		runner.TestSpecs(t, "testdata/**/*.md", calc)
//	}
package runner
