package main

import (
	"fmt"
	"os"

	"charm-walletkit/config"

	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- MAIN --------------------

func main() {
	path := defaultConfigPath()
	cfg := config.LoadOrCreate(path)

	m := newModel(cfg, path, nil)
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	m.kit.close()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
