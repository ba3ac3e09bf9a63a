package compiler

// Config controls compiler-wide tunables that aren't part of the NFA's own
// structural contract (the 256-state ceiling lives in the nfa package,
// since it's a hard consequence of StateID's width, not a tunable).
type Config struct {
	// UnicodeClassThreshold is carried in the Config (and set by the CLI's
	// --unicode-threshold flag), but no compilation step reads it: every
	// character class compiles to the full range list it was given,
	// whatever its size.
	UnicodeClassThreshold int

	// AhoLiteralThreshold is the minimum number of top-level literal
	// alternation branches a pattern must expose before Compile reports
	// them in CompileResult.Literals, which matcher.NewFromResult uses to
	// build its literal prefilter.
	AhoLiteralThreshold int
}

// DefaultConfig returns the tunables this module ships with.
func DefaultConfig() Config {
	return Config{
		UnicodeClassThreshold: 64,
		AhoLiteralThreshold:   8,
	}
}
