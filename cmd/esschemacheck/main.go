// esschemacheck validates Elasticsearch index mappings against expected
// schemas kept in a directory.
//
// Usage:
//
//	# Validate every index of ./schemas against the cluster
//	esschemacheck check --dir schemas
//
//	# Validate a single index against a specific cluster
//	esschemacheck check --dir schemas --index users --url http://es:9200
//
//	# Compare two mapping files without a cluster
//	esschemacheck compare --expected users.json --actual current.json
package main

func main() {
	Execute()
}
