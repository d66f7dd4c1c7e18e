package config

// UnitFileExt is the extension of unit definition files.
const UnitFileExt = ".unit.yaml"

// ManifestNames are the recognized project manifest file names,
// checked in order.
var ManifestNames = []string{"quilt.yaml", "quilt.yml"}

// WorkDirName is the per-project working directory (history store).
const WorkDirName = ".quilt"

// DefaultOutputFile is where the combined program is written when the
// manifest does not say otherwise.
const DefaultOutputFile = "program.yaml"
