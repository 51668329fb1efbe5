package prism

// Multi-sample positions follow the DirectX standard pattern for 1, 2,
// 4, 8 and 16 samples. Offsets are from the pixel origin in 1/16ths of a
// pixel, which is exactly one fixed-point unit, so they add directly to
// fixed-point pixel coordinates.
var samplePatterns = [5][]fxPoint{
	{{8, 8}},
	{{12, 12}, {4, 4}},
	{{6, 2}, {14, 6}, {2, 10}, {10, 14}},
	{
		{9, 5}, {7, 11}, {13, 9}, {5, 3},
		{3, 13}, {1, 7}, {11, 15}, {15, 1},
	},
	{
		{9, 9}, {7, 5}, {5, 10}, {12, 7},
		{3, 6}, {10, 13}, {13, 11}, {11, 3},
		{6, 14}, {8, 1}, {4, 2}, {2, 12},
		{0, 8}, {15, 4}, {14, 15}, {1, 0},
	},
}

// samplePositions returns the offsets for a log2 sample level.
func samplePositions(level int) []fxPoint {
	return samplePatterns[level]
}
