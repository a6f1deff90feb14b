package hausdorff

// SearchParams controls a pose sweep: the starting translation stride and
// the inclusive rotation and scale ranges tried for the needle.
type SearchParams struct {
	TranslationStep int     `json:"translation_step"`
	MinRotation     int     `json:"min_rotation_degrees"`
	MaxRotation     int     `json:"max_rotation_degrees"`
	RotationStep    int     `json:"rotation_step_degrees"`
	MinScale        float64 `json:"min_scale"`
	MaxScale        float64 `json:"max_scale"`
	ScaleStep       float64 `json:"scale_step"`
}

// DefaultSearchParams returns default pose sweep parameters.
// These cover moderate rotation and a 4x scale span, coarse enough to keep
// the full sweep interactive on typical scan sizes.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		// Coarse first pass; the hierarchical search halves down from here
		TranslationStep: 32,

		// Rotations in whole degrees, swept inclusively
		MinRotation:  -32,
		MaxRotation:  32,
		RotationStep: 4,

		// Needle may appear at half to double size
		MinScale:  0.5,
		MaxScale:  2.0,
		ScaleStep: 0.25,
	}
}

// WithTranslationStep returns a copy of params with a new starting stride.
func (p SearchParams) WithTranslationStep(step int) SearchParams {
	p.TranslationStep = step
	return p
}

// WithRotationRange returns a copy of params with a custom rotation range
// in degrees.
func (p SearchParams) WithRotationRange(minDeg, maxDeg, stepDeg int) SearchParams {
	p.MinRotation = minDeg
	p.MaxRotation = maxDeg
	p.RotationStep = stepDeg
	return p
}

// WithScaleRange returns a copy of params with a custom scale range.
func (p SearchParams) WithScaleRange(minScale, maxScale, step float64) SearchParams {
	p.MinScale = minScale
	p.MaxScale = maxScale
	p.ScaleStep = step
	return p
}
