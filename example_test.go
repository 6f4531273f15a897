package spire_test

import (
	"context"
	"fmt"

	"github.com/aretw0/spire"
	"github.com/aretw0/spire/internal/testutils"
)

func ExampleNew() {
	rig := testutils.NewRig()

	agent, err := spire.New(spire.WithPorts(spire.Ports(rig.Ports())))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(agent.State())
	_ = agent.Step(context.Background())
	fmt.Println(agent.State())
	// Output:
	// initialization
	// map_selection
}
