package srs

// Params defines all configurable parameters for the SM-2 algorithm.
type Params struct {
	// MinEaseFactor is the floor the ease factor can never drop below.
	MinEaseFactor float64

	// PassThreshold is the lowest quality rating counted as a successful
	// recall. Ratings below it reset the repetition sequence.
	PassThreshold int

	// FirstInterval and SecondInterval are the fixed intervals (in days)
	// used for the first and second successful repetitions.
	FirstInterval  int
	SecondInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance.
type ParamsConfig struct {
	MinEaseFactor  float64
	PassThreshold  int
	FirstInterval  int
	SecondInterval int
}

// NewDefaultParams creates a new Params instance with the standard SM-2
// values: ease floor 1.3, pass threshold 3, and the 1-day / 6-day opening
// intervals.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  1.3,
		PassThreshold:  3,
		FirstInterval:  1,
		SecondInterval: 6,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassThreshold > 0 {
		params.PassThreshold = config.PassThreshold
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}

	return params
}
