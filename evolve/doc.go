// Package evolve runs the automaton: starting from an initial row it applies
// a rule table generation after generation and records each row's live
// population.
//
// 🚀 How a row is built
//
//	For every active column c of row r:
//	  left   = row[r-1][c-1]   (0 past the left edge)
//	  center = row[r-1][c]
//	  right  = row[r-1][c+1]   (0 past the right edge)
//	  if the rule defines (left, center, right):
//	      row[r][c] = result; sums[r] += result
//	  otherwise row[r][c] stays 0.
//
// ✨ Key features:
//   - Boosting (WithBoost): only the light-cone window of each row is
//     computed; columns outside it stay 0. Valid when every live cell of the
//     initial row sits in the seed cone of the central line and the rule is
//     quiescent; both are checked up front.
//   - Two layouts (WithLayout) producing bit-identical canvases:
//     Contiguous writes in place into one flat buffer; RowByRow materializes
//     each row from the previous one only and flattens at the end.
//
// ⚙️ Usage:
//
//	tbl, _ := rule.FromNumber(30)
//	res, err := evolve.Generate(initial, 50, tbl,
//	    evolve.WithBoost(len(initial)/2),
//	    evolve.WithLayout(evolve.RowByRow),
//	)
//
// Errors:
//   - cell.ErrInvalidCellValue: initial row holds a value other than 0/1.
//   - cell.ErrOutOfRange: central line or window outside the canvas.
//   - canvas.ErrBadShape: rows < 1 or an empty initial row.
//   - lightcone.ErrSeedOutsideCone, ErrNonQuiescentRule: boost preconditions.
//   - ErrNilTable, ErrOptionViolation.
//
// No error yields a partial canvas.
//
// Performance:
//
//   - Time:   O(R·C) unboosted, O(R²) boosted while the cone is narrower than C.
//   - Memory: O(R·C) for the canvas plus O(R) sums.
package evolve
