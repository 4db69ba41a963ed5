package schemacheck

// schemaFixture is the expected schema of one index, read from a schema
// directory.
type schemaFixture struct {
	name   string       // Directory name = index name
	path   string       // Mapping file the schema was read from
	schema *IndexSchema // Parsed mappings
}
