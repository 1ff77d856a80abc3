package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger. Every roll is logged at debug level with
// expression, dice values, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RollDice rolls count dice of the given sides plus bonus and logs the result.
func (r *Roller) RollDice(count, sides, bonus int) (RollResult, error) {
	result, err := RollDice(r.src, count, sides, bonus)
	if err != nil {
		return RollResult{}, err
	}
	r.log(result)
	return result, nil
}

// RollDamage rolls like RollDice but floors the total at 1.
func (r *Roller) RollDamage(count, sides, bonus int) (int, error) {
	result, err := r.RollDice(count, sides, bonus)
	if err != nil {
		return 0, err
	}
	return max(1, result.Total()), nil
}

// D20 rolls 1d20+bonus.
func (r *Roller) D20(bonus int) RollResult {
	result := D20(r.src, bonus)
	r.log(result)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	result, err := RollExpr(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.log(result)
	return result, nil
}

func (r *Roller) log(result RollResult) {
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
}
