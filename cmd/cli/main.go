package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/downfa11-org/burstfifo/pkg/burst"
	"github.com/downfa11-org/burstfifo/pkg/config"
	"github.com/downfa11-org/burstfifo/pkg/controller"
	"github.com/downfa11-org/burstfifo/util"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		util.Fatal("❌ Failed to load config: %v", err)
	}

	buf, err := burst.NewFromConfig(cfg)
	if err != nil {
		util.Fatal("❌ Failed to build buffer: %v", err)
	}
	defer buf.Close()

	ch := controller.NewCommandHandler(buf)
	ctx := controller.NewClientContext()

	fmt.Printf("🔹 Buffer %s ready (%s). Type HELP for commands.\n", buf.ID(), buf.Geometry())
	fmt.Println("")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "EXIT") {
			break
		}
		fmt.Println(ch.HandleCommand(line, ctx))
	}
}
