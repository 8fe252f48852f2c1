package config

// Overrides holds values given on the command line. Nil fields were not
// set and leave the loaded value alone.
type Overrides struct {
	InputDir     *string
	OutputDir    *string
	Columns      *int
	IncludeEmpty *bool
	JSON         *bool
	GIF          *bool
	APNG         *bool
	Verbose      bool
	LogFile      *string
}

// Apply writes the set overrides into cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.InputDir != nil {
		cfg.Input.Dir = *o.InputDir
	}
	if o.OutputDir != nil {
		cfg.Output.Dir = *o.OutputDir
	}
	if o.Columns != nil {
		cfg.Output.Columns = *o.Columns
	}
	if o.IncludeEmpty != nil {
		cfg.Output.IncludeEmpty = *o.IncludeEmpty
	}
	if o.JSON != nil {
		cfg.Output.JSON = *o.JSON
	}
	if o.GIF != nil {
		cfg.Output.GIF = *o.GIF
	}
	if o.APNG != nil {
		cfg.Output.APNG = *o.APNG
	}
	if o.Verbose {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != nil {
		cfg.Logging.LogFile = *o.LogFile
	}
}
