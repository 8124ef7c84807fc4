package mediator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MediatorHooksSuite struct {
	suite.Suite
}

func TestMediatorHooksSuite(t *testing.T) {
	suite.Run(t, new(MediatorHooksSuite))
}

func (s *MediatorHooksSuite) TestOnPreProcessAndOnHandleFireInOrder() {
	reg := NewRegistry()
	RegisterRequestHandler[greetReq, string](reg, greetHandler{})

	var order []string
	m, err := New(reg, WithHooks(
		WithOnPreProcess(func(ctx context.Context, messageType string) { order = append(order, "pre") }),
		WithOnHandle(func(ctx context.Context, messageType string) { order = append(order, "handle") }),
		WithOnSuccess(func(ctx context.Context, messageType string) { order = append(order, "success") }),
	))
	s.Require().NoError(err)

	_, err = Send[greetReq, string](context.Background(), m, greetReq{Name: "ada"})
	s.NoError(err)
	s.Require().Len(order, 3)
	s.Equal([]string{"pre", "handle", "success"}, order)
}

func (s *MediatorHooksSuite) TestOnFailureFiresWithOriginalError() {
	reg := NewRegistry()
	RegisterRequestHandler[greetReq, string](reg, greetHandler{})

	var got error
	m, err := New(reg, WithHooks(
		WithOnFailure(func(ctx context.Context, messageType string, err error) { got = err }),
	))
	s.Require().NoError(err)

	_, sendErr := Send[greetReq, string](context.Background(), m, greetReq{Name: ""})
	s.Error(sendErr)
	s.Require().Error(got)
	s.Equal(sendErr, got)
}

func (s *MediatorHooksSuite) TestOnRecoveredFiresWithOriginalErrorNotReplacement() {
	reg := NewRegistry()
	RegisterRequestHandler[divReq, int](reg, divHandler{})
	RegisterExceptionHandler[divReq, int, *divByZeroError](reg, ExceptionHandlerFunc[divReq, int, *divByZeroError](
		func(ctx context.Context, req divReq, err *divByZeroError, state *RecoveryState[int]) error {
			state.MarkHandled(-1)
			return nil
		},
	))

	var recoveredErr error
	var successFired bool
	m, err := New(reg, WithHooks(
		WithOnRecovered(func(ctx context.Context, messageType string, err error) { recoveredErr = err }),
		WithOnSuccess(func(ctx context.Context, messageType string) { successFired = true }),
	))
	s.Require().NoError(err)

	got, sendErr := Send[divReq, int](context.Background(), m, divReq{A: 10, B: 0})
	s.NoError(sendErr)
	s.Equal(-1, got)
	s.Require().Error(recoveredErr)
	var dbz *divByZeroError
	s.ErrorAs(recoveredErr, &dbz)
	s.True(successFired)
}

func (s *MediatorHooksSuite) TestOnActionFailureFiresWithoutSuppressingRethrow() {
	reg := NewRegistry()
	RegisterRequestHandler[divReq, int](reg, divHandler{})

	actionErr := errors.New("action side effect failed")
	RegisterExceptionAction[divReq, *divByZeroError](reg, ExceptionActionFunc[divReq, *divByZeroError](
		func(ctx context.Context, req divReq, err *divByZeroError) error {
			return actionErr
		},
	))

	var gotActionErr error
	m, err := New(reg, WithHooks(
		WithOnActionFailure(func(ctx context.Context, err error) { gotActionErr = err }),
	))
	s.Require().NoError(err)

	_, sendErr := Send[divReq, int](context.Background(), m, divReq{A: 10, B: 0})
	s.Require().Error(sendErr)

	var dbz *divByZeroError
	s.ErrorAs(sendErr, &dbz, "the action's own failure must not replace the original rethrown error")
	s.Equal(actionErr, gotActionErr)
}

func (s *MediatorHooksSuite) TestOnPublishReportsHandlerCount() {
	reg := NewRegistry()
	var counter atomic.Int32
	RegisterNotificationHandler[orderPlaced](reg, countingHandlerA{counter: &counter})
	RegisterNotificationHandler[orderPlaced](reg, countingHandlerB{counter: &counter})

	var gotCount int
	m, err := New(reg, WithHooks(
		WithOnPublish(func(ctx context.Context, messageType string, handlerCount int) { gotCount = handlerCount }),
	))
	s.Require().NoError(err)

	s.NoError(Publish[orderPlaced](context.Background(), m, orderPlaced{OrderID: "42"}))
	s.Equal(2, gotCount)
}
