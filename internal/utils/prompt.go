package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Input is where prompts read answers from. Tests swap it.
var Input io.Reader = os.Stdin

var (
	reader       *bufio.Reader
	readerSource io.Reader
)

func readLine() (string, error) {
	if reader == nil || readerSource != Input {
		reader = bufio.NewReader(Input)
		readerSource = Input
	}
	text, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && text != "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func Prompt(message string) (string, error) {
	fmt.Printf("%s: ", BrightWhite(message))
	return readLine()
}

func PromptWithDefault(message, defaultValue string) (string, error) {
	fmt.Printf("%s [%s]: ", BrightWhite(message), Dim(defaultValue))
	text, err := readLine()
	if err != nil {
		return "", err
	}
	if text == "" {
		return defaultValue, nil
	}
	return text, nil
}
