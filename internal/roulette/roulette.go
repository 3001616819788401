// Package roulette implements European single-zero roulette settlement: a
// fixed bet catalog with payout multipliers and a uniformly drawn outcome.
// Wheel animation and table layout live in the UI and are not part of the
// engine; the engine only produces outcomes and win amounts against the
// ledger.
package roulette

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dedovbet/backend/internal/ledger"
	"github.com/dedovbet/backend/internal/models"
)

// GameType tags ledger transactions produced by this engine.
const GameType = "roulette"

// Pockets is the number of wheel outcomes (0-36).
const Pockets = 37

// StraightPayout multiplies the stake of a matching single-number bet.
var StraightPayout = decimal.NewFromInt(36)

var (
	ErrNoBets         = errors.New("no active bets")
	ErrInvalidNumber  = errors.New("number must be between 0 and 36")
	ErrUnknownBetType = errors.New("unknown bet type")
)

// Color of a wheel pocket.
type Color string

const (
	Green Color = "green"
	Red   Color = "red"
	Black Color = "black"
)

// Standard European layout reds; everything else in 1-36 is black.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf maps an outcome to its pocket color.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return Green
	case redNumbers[n]:
		return Red
	default:
		return Black
	}
}

// BetType names an outside bet.
type BetType string

const (
	BetRed         BetType = "red"
	BetBlack       BetType = "black"
	BetEven        BetType = "even"
	BetOdd         BetType = "odd"
	BetLow         BetType = "low"
	BetHigh        BetType = "high"
	BetFirstDozen  BetType = "dozen1"
	BetSecondDozen BetType = "dozen2"
	BetThirdDozen  BetType = "dozen3"
)

// payouts holds the stake multiplier per outside bet type.
var payouts = map[BetType]decimal.Decimal{
	BetRed:         decimal.NewFromInt(2),
	BetBlack:       decimal.NewFromInt(2),
	BetEven:        decimal.NewFromInt(2),
	BetOdd:         decimal.NewFromInt(2),
	BetLow:         decimal.NewFromInt(2),
	BetHigh:        decimal.NewFromInt(2),
	BetFirstDozen:  decimal.NewFromInt(3),
	BetSecondDozen: decimal.NewFromInt(3),
	BetThirdDozen:  decimal.NewFromInt(3),
}

// Matches reports whether outcome satisfies the bet type's predicate. Zero
// never satisfies an outside bet.
func (t BetType) Matches(outcome int) bool {
	if outcome == 0 {
		return false
	}
	switch t {
	case BetRed:
		return ColorOf(outcome) == Red
	case BetBlack:
		return ColorOf(outcome) == Black
	case BetEven:
		return outcome%2 == 0
	case BetOdd:
		return outcome%2 == 1
	case BetLow:
		return outcome >= 1 && outcome <= 18
	case BetHigh:
		return outcome >= 19 && outcome <= 36
	case BetFirstDozen:
		return outcome >= 1 && outcome <= 12
	case BetSecondDozen:
		return outcome >= 13 && outcome <= 24
	case BetThirdDozen:
		return outcome >= 25 && outcome <= 36
	}
	return false
}

// Winnings computes the total win for a drawn outcome. Every placed bet is
// evaluated independently, so simultaneous bets on red and even both pay
// when the outcome satisfies both.
func Winnings(outcome int, numberBets map[int]decimal.Decimal, typeBets map[BetType]decimal.Decimal) decimal.Decimal {
	win := decimal.Zero
	if stake, ok := numberBets[outcome]; ok {
		win = win.Add(stake.Mul(StraightPayout))
	}
	for t, stake := range typeBets {
		if t.Matches(outcome) {
			win = win.Add(stake.Mul(payouts[t]))
		}
	}
	return win
}

// SpinResult summarizes a settled round.
type SpinResult struct {
	Outcome int
	Color   Color
	Win     decimal.Decimal
	Staked  decimal.Decimal
	Balance decimal.Decimal
}

// Round collects bets for one spin against a ledger session. Stake
// sufficiency is enforced per bet by the ledger's virtual balance, which
// prevents overcommitting across several bets in the same round.
type Round struct {
	session    *ledger.Session
	rng        *rand.Rand
	numberBets map[int]decimal.Decimal
	typeBets   map[BetType]decimal.Decimal
	staked     decimal.Decimal
}

// NewRound starts an empty round. A nil rng gets a time-seeded source;
// cryptographic strength is not required for the demo wheel.
func NewRound(session *ledger.Session, rng *rand.Rand) *Round {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Round{
		session:    session,
		rng:        rng,
		numberBets: map[int]decimal.Decimal{},
		typeBets:   map[BetType]decimal.Decimal{},
	}
}

// PlaceNumberBet stakes on a single number paying 36 to 1 on the stake.
func (r *Round) PlaceNumberBet(ctx context.Context, number int, stake decimal.Decimal) error {
	if number < 0 || number >= Pockets {
		return ErrInvalidNumber
	}
	if _, err := r.session.PlaceBet(ctx, stake, GameType, models.Metadata{
		"bet":    "straight",
		"number": number,
	}); err != nil {
		return err
	}
	r.numberBets[number] = r.numberBets[number].Add(stake)
	r.staked = r.staked.Add(stake)
	return nil
}

// PlaceTypeBet stakes on an outside bet.
func (r *Round) PlaceTypeBet(ctx context.Context, t BetType, stake decimal.Decimal) error {
	if _, ok := payouts[t]; !ok {
		return ErrUnknownBetType
	}
	if _, err := r.session.PlaceBet(ctx, stake, GameType, models.Metadata{
		"bet": string(t),
	}); err != nil {
		return err
	}
	r.typeBets[t] = r.typeBets[t].Add(stake)
	r.staked = r.staked.Add(stake)
	return nil
}

// TotalStaked returns the sum of stakes placed this round.
func (r *Round) TotalStaked() decimal.Decimal { return r.staked }

// Spin draws an outcome, settles every bet and reports the result to the
// ledger. A round with no bets is rejected. The round is emptied whether
// the spin won or lost.
func (r *Round) Spin(ctx context.Context) (*SpinResult, error) {
	if len(r.numberBets) == 0 && len(r.typeBets) == 0 {
		return nil, ErrNoBets
	}

	outcome := r.rng.Intn(Pockets)
	return r.settle(ctx, outcome)
}

// SpinAt settles the round for a known outcome. Exposed for replaying
// recorded rounds; Spin is the production path.
func (r *Round) SpinAt(ctx context.Context, outcome int) (*SpinResult, error) {
	if outcome < 0 || outcome >= Pockets {
		return nil, ErrInvalidNumber
	}
	if len(r.numberBets) == 0 && len(r.typeBets) == 0 {
		return nil, ErrNoBets
	}
	return r.settle(ctx, outcome)
}

func (r *Round) settle(ctx context.Context, outcome int) (*SpinResult, error) {
	win := Winnings(outcome, r.numberBets, r.typeBets)

	result, err := r.session.ProcessGameResult(ctx, ledger.GameResult{
		IsWin:     win.IsPositive(),
		WinAmount: win,
		GameType:  GameType,
		Details: models.Metadata{
			"outcome": outcome,
			"color":   string(ColorOf(outcome)),
			"staked":  r.staked,
		},
	})
	if err != nil {
		return nil, err
	}

	spin := &SpinResult{
		Outcome: outcome,
		Color:   ColorOf(outcome),
		Win:     win,
		Staked:  r.staked,
		Balance: result.Balance,
	}

	r.numberBets = map[int]decimal.Decimal{}
	r.typeBets = map[BetType]decimal.Decimal{}
	r.staked = decimal.Zero

	return spin, nil
}
