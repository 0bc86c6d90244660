package types

// Tolerance used when comparing float values against zero.
const floatCmpEpsilon = 1e-8
