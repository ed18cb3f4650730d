// Command huffpack compresses a single file into a self-contained Huffman
// payload, or expands such a payload back into the original file.
//
//	huffpack [-v] c INPUT OUTPUT
//	huffpack [-v] d INPUT OUTPUT
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chronos-tachyon/huffpack"
)

type tool struct {
	log *logrus.Logger
}

func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	if len(args) != 3 {
		usage()
		os.Exit(2)
	}

	t := tool{log: log}
	var err error
	switch args[0] {
	case "c":
		err = t.compressFile(args[1], args[2])
	case "d":
		err = t.decompressFile(args[1], args[2])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: huffpack [-v] {c|d} INPUT OUTPUT")
	flag.PrintDefaults()
}

func (t tool) compressFile(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	payload := huffpack.Compress(data)
	t.log.Debugf("code table entries: %d", len(payload.Codes()))
	t.log.Debugf("packed data bits: %d (%d padding)", payload.BitCount(), payload.PadBits())

	raw, err := payload.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		return err
	}

	if len(data) > 0 {
		t.log.Infof("%s: %d bytes in, %d bytes out (%.1f%% of original)", inPath, len(data), len(raw), 100*float64(len(raw))/float64(len(data)))
	} else {
		t.log.Infof("%s: empty input, %d bytes out", inPath, len(raw))
	}
	return nil
}

func (t tool) decompressFile(inPath, outPath string) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	var payload huffpack.Payload
	if err := payload.UnmarshalBinary(raw); err != nil {
		return err
	}
	t.log.Debugf("expecting %d symbols from %d packed bytes", payload.SymbolCount(), payload.PackedLen())

	data, err := huffpack.Decompress(&payload)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	t.log.Infof("%s: %d bytes in, %d bytes out", inPath, len(raw), len(data))
	return nil
}
