// Package failsoft runs operations whose failures must be logged rather than
// propagated.
package failsoft

import (
	"fmt"

	"github.com/leandrodaf/gong/sdk/contracts"
)

// Policy logs failed operations and reports them to OnFailure.
type Policy struct {
	Logger    contracts.Logger
	OnFailure func(op string)
}

// Run executes fn. An error or a panic is logged under op and swallowed.
// It reports whether fn completed without error.
func (p Policy) Run(op string, fn func() error, fields ...contracts.Field) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.fail(op, fmt.Errorf("panic: %v", r), fields)
			ok = false
		}
	}()

	if err := fn(); err != nil {
		p.fail(op, err, fields)
		return false
	}
	return true
}

func (p Policy) fail(op string, err error, fields []contracts.Field) {
	if p.OnFailure != nil {
		p.OnFailure(op)
	}
	if p.Logger == nil {
		return
	}
	all := make([]contracts.Field, 0, len(fields)+2)
	all = append(all, p.Logger.Field().String("op", op), p.Logger.Field().Error("error", err))
	all = append(all, fields...)
	p.Logger.Error("MIDI operation failed", all...)
}
