package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"harmonic/cmd"
	"harmonic/config"
	"harmonic/services"
	"harmonic/types"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
)

func main() {
	config.InitLogging(config.GetLogLevel(), nil)

	var (
		list   string
		file   string
		encode string
		server bool
		port   int
		quiet  bool
	)

	flag.StringVar(&list, "list", "", "Directory to list audio files from")
	flag.StringVar(&file, "file", "", "Audio file to read metadata from")
	flag.StringVar(&encode, "base64", "", "File to print as base64")
	flag.BoolVar(&server, "server", false, "Start in web server mode")
	flag.IntVar(&port, "port", 8080, "Port for web server mode")
	flag.BoolVar(&quiet, "quiet", false, "Hide the progress bar")
	flag.Parse()

	// Server mode takes precedence
	if server {
		cmd.StartWebServer(port)
		return
	}

	if list == "" && file == "" && encode == "" {
		flag.Usage()
		return
	}

	if countSet(list, file, encode) > 1 {
		flag.Usage()
		log.Fatalf("You can use only one between `list`, `file` and `base64` at a time.")
	}

	library := services.NewLibraryService(nil)

	switch {
	case list != "":
		var barOutput io.Writer = os.Stderr
		if quiet {
			barOutput = nil
		}

		audioFiles, err := scanDirectory(library, list, barOutput)
		if err != nil {
			log.Fatalf("Cannot list %s: %s", list, err)
		}
		printJSON(audioFiles)
	case file != "":
		audioFile, err := library.ReadFileMetadata(file)
		if err != nil {
			log.Fatalf("Cannot read %s: %s", file, err)
		}
		printJSON(audioFile)
	case encode != "":
		encoded, err := library.ReadFileAsBase64(encode)
		if err != nil {
			log.Fatalf("Cannot read %s: %s", encode, err)
		}
		fmt.Println(encoded)
	}
}

// scanDirectory lists dir, drawing a progress bar on barOutput when it is not
// nil. The bar is finished before returning.
func scanDirectory(library services.LibraryService, dir string, barOutput io.Writer) ([]types.AudioFile, error) {
	if barOutput == nil {
		return library.ListAudioFiles(dir)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(barOutput),
		progressbar.OptionSetDescription("Scanning "+dir),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	audioFiles, err := library.ListAudioFilesWithProgress(dir, bar)
	if finishErr := bar.Finish(); finishErr != nil {
		log.Debugf("Progress bar did not finish: %v", finishErr)
	}
	return audioFiles, err
}

func countSet(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

func printJSON(v any) {
	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	if err := out.Encode(v); err != nil {
		log.Fatalf("Cannot encode output: %s", err)
	}
}
