package tree

// Option is a function that configures DecisionTreeRegressor
type Option func(*DecisionTreeRegressor)

// WithMaxDepth limits the depth of the tree. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(t *DecisionTreeRegressor) {
		t.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum number of samples required to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeRegressor) {
		t.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of samples in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeRegressor) {
		t.minSamplesLeaf = n
	}
}

// WithMaxFeatures sets how many features are drawn at each split.
// Zero means all features.
func WithMaxFeatures(n int) Option {
	return func(t *DecisionTreeRegressor) {
		t.maxFeatures = n
	}
}

// WithRandomState seeds the feature sampler.
func WithRandomState(seed uint64) Option {
	return func(t *DecisionTreeRegressor) {
		t.seed = seed
	}
}
