// Package domain contains the entity model for a single student's study program:
// semesters, modules, exam attempts and learning-time logs.
//
// The domain is persistence-agnostic: it does not depend on JSON/YAML, databases,
// or the filesystem. Adapters map into/from these types through the codec package.
// Parents own their children in ordered slices; no child keeps a pointer back to
// its parent, so lookups always go top-down (program -> semester -> module).
package domain
