package display

import (
	"fmt"

	"github.com/fatih/color"
)

type consoleService struct {
}

// NewConsole prints the per-frame read-out to the terminal, the winning
// label highlighted.
func NewConsole() IService {
	return &consoleService{}
}

func (svc *consoleService) Show(machine string, winner string, message string) {
	if winner == "" {
		fmt.Printf("[%s] %s\n", machine, message)
		return
	}
	fmt.Printf("[%s] %s\n%s\n", machine, color.GreenString(winner), message)
}
