package fixed

var (
	Zero      = FromInt64(0, 0)
	One       = FromInt64(1, 0)
	Two       = FromInt64(2, 0)
	Hundred   = FromInt64(100, 0)
	PointFive = FromInt64(5, 1)
)
