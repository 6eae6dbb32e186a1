package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errNoInput = errors.New("no input")

// promptPositiveInt asks question until a positive integer is entered. An
// empty answer selects def when def is positive.
func promptPositiveInt(r *bufio.Reader, w io.Writer, question string, def int) (int, error) {
	for {
		fmt.Fprint(w, question)

		line, err := r.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && (err != io.EOF || answer == "") {
			if err == io.EOF {
				return 0, errNoInput
			}
			return 0, err
		}

		if answer == "" && def > 0 {
			return def, nil
		}

		n, convErr := strconv.Atoi(answer)
		if convErr != nil {
			fmt.Fprintln(w, "Invalid input. Please enter an integer.")
			continue
		}
		if n <= 0 {
			fmt.Fprintln(w, "Number must be positive.")
			continue
		}
		return n, nil
	}
}
