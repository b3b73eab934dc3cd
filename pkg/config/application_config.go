package config

import "slices"

// ApplicationConfiguration holds the settings specific to running this
// engine as a long-lived process: logging, the pprof and Prometheus
// listen settings, and cache sizing. Nothing in this repository,
// cmd/scriptdebug included, starts a pprof or Prometheus listener from
// these settings.
type ApplicationConfiguration struct {
	Logger     Logger       `yaml:"Logger"`
	Pprof      BasicService `yaml:"Pprof"`
	Prometheus BasicService `yaml:"Prometheus"`

	// MidstateCacheSize bounds the number of per-transaction sighash
	// midstates kept resident across repeated CHECKSIG evaluations of
	// the same transaction's inputs.
	MidstateCacheSize int `yaml:"MidstateCacheSize"`
	// InstructionCacheSize bounds the number of parsed instruction
	// sequences kept resident, keyed by script content hash.
	InstructionCacheSize int `yaml:"InstructionCacheSize"`
}

func basicServiceEqual(a, o BasicService) bool {
	return a.Enabled == o.Enabled && slices.Equal(a.Addresses, o.Addresses)
}

// Equals reports whether a and o describe the same application settings.
func (a *ApplicationConfiguration) Equals(o *ApplicationConfiguration) bool {
	return a.Logger == o.Logger &&
		basicServiceEqual(a.Pprof, o.Pprof) &&
		basicServiceEqual(a.Prometheus, o.Prometheus) &&
		a.MidstateCacheSize == o.MidstateCacheSize &&
		a.InstructionCacheSize == o.InstructionCacheSize
}
