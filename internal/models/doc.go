// Package models defines the core domain models for the handicap engine.
//
// # Models
//
//   - Player: a golfer and the summary fields derived from their rounds
//   - Round: one recorded eighteen-hole (or eighteen-hole equivalent) score
//   - NineHoleRound: a nine-hole score staged until a partner arrives
//   - IndexEntry: one (date, index) pair of the rolling index history
//   - LowIndex: the anchor used to cap upward index movement
//   - RoundPage: one page of a player's rounds for display
//
// # Design Principles
//
// 1. **Plain values**: models carry no behaviour beyond small helpers; the rules live in calculator
// 2. **IDs, not pointers**: relationships are expressed with string IDs (UUID format)
// 3. **Day precision**: play dates are calendar days, normalised to UTC midnight
package models
