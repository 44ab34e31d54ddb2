package geometry

// StressComponents is the number of independent Reynolds-stress components
// of a symmetric 3×3 covariance tensor.
const StressComponents = 6

// VelocityComponents is the number of mean-velocity components.
const VelocityComponents = 3

// StressIndex maps each linear stress index to the pair of spatial axes it
// couples. The order (UU, VV, WW, UV, UW, VW) is part of the output
// contract of every bias and error-factor vector.
var StressIndex = [StressComponents][2]int{
	{0, 0},
	{1, 1},
	{2, 2},
	{0, 1},
	{0, 2},
	{1, 2},
}

// StressNames labels the stress components in StressIndex order.
var StressNames = [StressComponents]string{"UU", "VV", "WW", "UV", "UW", "VW"}

// VelocityNames labels the mean-velocity components.
var VelocityNames = [VelocityComponents]string{"U", "V", "W"}
