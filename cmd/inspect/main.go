package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/downfa11-org/burstfifo/pkg/store"
)

func main() {
	path := flag.String("file", "", "persisted store file (burst_<id>.store)")
	segment := flag.Int("segment", -1, "dump only this segment")
	flag.Parse()

	if *path == "" {
		fmt.Println("❌ -file is required")
		os.Exit(2)
	}

	snap, err := store.Inspect(*path)
	if err != nil {
		fmt.Println("❌ Failed to open store:", err)
		os.Exit(1)
	}
	defer snap.Close()

	geo := snap.Geometry()
	fmt.Printf("📦 %s\n", *path)
	fmt.Printf(" Geometry : %s\n", geo)
	fmt.Printf(" Payload  : %d bytes\n", geo.Bytes())

	for s := 0; s < geo.Segments; s++ {
		if *segment >= 0 && s != *segment {
			continue
		}
		beats, err := snap.Segment(s)
		if err != nil {
			fmt.Println("❌", err)
			os.Exit(1)
		}
		fmt.Printf("segment %d\n", s)
		for off, b := range beats {
			fmt.Printf("  [%3d] %s\n", off, hex.EncodeToString(b))
		}
	}
}
