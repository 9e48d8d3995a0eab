package ports

// WorkspaceLocator finds the directory holding studytrack.yaml, starting from
// an arbitrary directory and walking upward.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}

// WorkspaceInitializer writes a starter studytrack.yaml into a directory.
type WorkspaceInitializer interface {
	Init(root string, force bool) error
}
