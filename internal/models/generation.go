package models

// GeneratedFile is the output for one package
type GeneratedFile struct {
	PackageName string // name of the package
	FilePath    string // path where the file should be written
	Content     string // formatted Go source
	Wrappers    int    // number of wrappers emitted
	Modules     int    // number of entry points emitted
}
