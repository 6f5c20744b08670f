package ensemble

// Option is a function that configures RandomForestRegressor
type Option func(*RandomForestRegressor)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) Option {
	return func(rf *RandomForestRegressor) {
		rf.nEstimators = n
	}
}

// WithMaxDepth limits the depth of every tree. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(rf *RandomForestRegressor) {
		rf.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum number of samples required to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(rf *RandomForestRegressor) {
		rf.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of samples in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(rf *RandomForestRegressor) {
		rf.minSamplesLeaf = n
	}
}

// WithMaxFeatures sets the number of features drawn per split. Zero means all.
func WithMaxFeatures(n int) Option {
	return func(rf *RandomForestRegressor) {
		rf.maxFeatures = n
	}
}

// WithBootstrap toggles bootstrap sampling of the training rows.
func WithBootstrap(bootstrap bool) Option {
	return func(rf *RandomForestRegressor) {
		rf.bootstrap = bootstrap
	}
}

// WithRandomState sets the seed. Tree i uses seed+i.
func WithRandomState(seed uint64) Option {
	return func(rf *RandomForestRegressor) {
		rf.seed = seed
	}
}
