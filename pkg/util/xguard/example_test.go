package xguard_test

import (
	"context"
	"fmt"

	"github.com/omeyang/modelkit/pkg/util/xguard"
)

func ExampleNew() {
	g, err := xguard.New()
	if err != nil {
		panic(err)
	}

	h, err := g.HandleFor("e3b0c44298fc1c14")
	if err != nil {
		panic(err)
	}
	if err := h.Lock(context.Background()); err != nil {
		panic(err)
	}

	fmt.Println("guarding:", h.Key())
	// ... compile / serialize the artifact for this hash ...

	if err := h.Release(); err != nil {
		panic(err)
	}
	fmt.Println("entries left:", g.Len())
	if err := g.Close(); err != nil {
		panic(err)
	}
	// Output:
	// guarding: e3b0c44298fc1c14
	// entries left: 0
}

func ExampleHandle_TryLock() {
	g, err := xguard.New()
	if err != nil {
		panic(err)
	}

	h1, _ := g.HandleFor("blob:42")
	if err := h1.TryLock(); err != nil {
		panic(err)
	}

	h2, _ := g.HandleFor("blob:42")
	err = h2.TryLock()
	fmt.Println("second holder:", err)

	if err := h2.Release(); err != nil {
		panic(err)
	}
	if err := h1.Release(); err != nil {
		panic(err)
	}
	if err := g.Close(); err != nil {
		panic(err)
	}
	// Output:
	// second holder: xguard: lock occupied
}
