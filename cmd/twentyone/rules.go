package main

import (
	"fmt"

	"github.com/lox/twentyone/internal/tui"
)

type RulesCmd struct{}

func (c *RulesCmd) Run() error {
	fmt.Println(tui.RenderRules())
	return nil
}
