package output

// SchemaVersion is the current version of the NDJSON output schema.
// Bump it when a field is renamed or removed.
const SchemaVersion = 1
