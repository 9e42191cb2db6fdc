package model

// CollisionEvent is a contact between two vehicles at Time.
// First is always strictly less than Second.
type CollisionEvent struct {
	Time   float64
	First  int
	Second int
}

// RowJob asks for the pairs (Row, j) with j > Row to be evaluated.
type RowJob struct {
	Row int
}
