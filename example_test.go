package mediator_test

import (
	"context"
	"fmt"

	"github.com/nerdigy/mediator"
)

type Greet struct {
	mediator.RequestBase[string]
	Name string
}

type GreetHandler struct{}

func (GreetHandler) Handle(ctx context.Context, req Greet) (string, error) {
	return "hello, " + req.Name, nil
}

func Example() {
	reg := mediator.NewRegistry()
	mediator.RegisterRequestHandler[Greet, string](reg, GreetHandler{})

	m, err := mediator.New(reg)
	if err != nil {
		fmt.Println(err)
		return
	}

	out, err := mediator.Send[Greet, string](context.Background(), m, Greet{Name: "ada"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)

	// Output:
	// hello, ada
}

type OrderPlaced struct {
	mediator.NotificationBase
	OrderID string
}

type notifyHandler struct{}

func (notifyHandler) Handle(ctx context.Context, n OrderPlaced) error {
	fmt.Printf("order placed: %s\n", n.OrderID)
	return nil
}

func Example_publish() {
	reg := mediator.NewRegistry()
	mediator.RegisterNotificationHandler[OrderPlaced](reg, notifyHandler{})

	m, _ := mediator.New(reg)
	if err := mediator.Publish[OrderPlaced](context.Background(), m, OrderPlaced{OrderID: "42"}); err != nil {
		fmt.Println(err)
		return
	}

	// Output:
	// order placed: 42
}
