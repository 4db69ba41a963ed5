package schemacheck

import "strings"

// pathSeparator joins nested property names in a Location path.
const pathSeparator = "."

// Location identifies where in a schema a finding was made.
// Empty components are not set.
type Location struct {
	IndexName   string
	MappingName string
	Path        string
	FieldName   string
}

// Finding is one deviation of the actual schema from the expected one.
type Finding struct {
	Location Location
	Kind     FindingKind
	Message  string
}

// FindingGroup holds the messages recorded for one location, in the order
// they were recorded.
type FindingGroup struct {
	Location Location
	Kinds    []FindingKind
	Messages []string
}

// errorCollector accumulates findings during one validation run.
// It keeps a cursor describing the current location; every setter returns
// a function restoring the previous value, to be deferred by the caller.
// It must not be shared between goroutines.
type errorCollector struct {
	indexName   string
	mappingName string
	path        []string
	fieldName   string

	groups []*FindingGroup
	byLoc  map[Location]*FindingGroup
}

func newErrorCollector() *errorCollector {
	return &errorCollector{byLoc: make(map[Location]*FindingGroup)}
}

func (c *errorCollector) setIndexName(name string) (restore func()) {
	prev := c.indexName
	c.indexName = name
	return func() { c.indexName = prev }
}

func (c *errorCollector) setMappingName(name string) (restore func()) {
	prev := c.mappingName
	c.mappingName = name
	return func() { c.mappingName = prev }
}

func (c *errorCollector) setFieldName(name string) (restore func()) {
	prev := c.fieldName
	c.fieldName = name
	return func() { c.fieldName = prev }
}

func (c *errorCollector) pushPath(segment string) (pop func()) {
	depth := len(c.path)
	c.path = append(c.path, segment)
	return func() { c.path = c.path[:depth] }
}

func (c *errorCollector) location() Location {
	return Location{
		IndexName:   c.indexName,
		MappingName: c.mappingName,
		Path:        strings.Join(c.path, pathSeparator),
		FieldName:   c.fieldName,
	}
}

func (c *errorCollector) addError(kind FindingKind, message string) {
	loc := c.location()
	g, ok := c.byLoc[loc]
	if !ok {
		g = &FindingGroup{Location: loc}
		c.byLoc[loc] = g
		c.groups = append(c.groups, g)
	}
	g.Kinds = append(g.Kinds, kind)
	g.Messages = append(g.Messages, message)
}

// drain returns the accumulated findings and resets the collector.
func (c *errorCollector) drain() []FindingGroup {
	out := make([]FindingGroup, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, *g)
	}
	c.groups = nil
	c.byLoc = make(map[Location]*FindingGroup)
	return out
}
