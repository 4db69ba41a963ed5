// Package schemacheck validates Elasticsearch index mappings against the
// schema an application expects.
//
// A Validator compares an expected IndexSchema with the actual one and
// reports every deviation in a single *ValidationError, grouped by index,
// mapping, property path and field. Comparisons mirror the defaults that
// Elasticsearch applies to absent attributes, tolerate small floating-point
// differences and treat format lists specially. Anything present only in the
// actual schema is ignored.
//
// FetchIndexSchema reads the actual schema from a cluster, and a Checker
// validates every index of a schema directory:
//
//	checker, err := schemacheck.New(client, schemacheck.Directory("testdata/schemas"))
//	if err != nil {
//		return err
//	}
//	if err := checker.Check(); err != nil {
//		var verr *schemacheck.ValidationError
//		if errors.As(err, &verr) {
//			fmt.Println(verr.Report())
//		}
//		return err
//	}
package schemacheck
