package dice

// Roll evaluates expr using src.
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and every die is in [1, expr.Sides].
func Roll(expr Expression, src Source) (RollResult, error) {
	if expr.Count < 1 {
		return RollResult{}, ErrInvalidCount
	}
	if expr.Sides < 1 {
		return RollResult{}, ErrInvalidSides
	}
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.String(),
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}, nil
}

// RollDice rolls count dice with the given number of sides and adds bonus.
//
// Postcondition: count <= Total()-bonus <= count*sides.
func RollDice(src Source, count, sides, bonus int) (RollResult, error) {
	return Roll(Expression{Count: count, Sides: sides, Modifier: bonus}, src)
}

// RollDamage behaves like RollDice but the total never drops below 1.
func RollDamage(src Source, count, sides, bonus int) (int, error) {
	r, err := RollDice(src, count, sides, bonus)
	if err != nil {
		return 0, err
	}
	return max(1, r.Total()), nil
}

// D20 rolls a single twenty-sided die plus bonus, as used for attacks and initiative.
func D20(src Source, bonus int) RollResult {
	r, _ := RollDice(src, 1, 20, bonus)
	return r
}

// RollExpr parses expr and rolls it using src.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}
