package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Courses and assignments are numbered from 1 on the command line.

func parsePosition(arg, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a number starting at 1, got %q", what, arg)
	}
	return n - 1, nil
}

func parsePositions(args []string, what string) ([]int, error) {
	refs := make([]int, 0, len(args))
	for _, arg := range args {
		ref, err := parsePosition(arg, what)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func parsePoints(arg, what string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", what, arg)
	}
	return v, nil
}
