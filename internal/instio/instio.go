// Package instio читает экземпляр задачи из текстового формата и записывает расписание.
//
// Формат входа: первая строка — n, далее n строк "p r d".
// Формат выхода: n строк с временем начала каждой работы в исходном порядке
// либо одна строка "-1", если допустимого расписания нет.
package instio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"singleMachine/internal/machine"
)

// ErrMalformed — синтаксически некорректный вход.
var ErrMalformed = errors.New("malformed instance")

// Infeasible — значение, которым в выходном файле обозначается отсутствие решения.
const Infeasible = -1

func Read(r io.Reader) (*machine.Instance, error) {
	sc := bufio.NewScanner(r)
	line := 0

	next := func() ([]string, error) {
		for sc.Scan() {
			line++
			f := strings.Fields(sc.Text())
			if len(f) > 0 {
				return f, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	head, err := next()
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: missing job count", ErrMalformed)
		}
		return nil, err
	}
	if len(head) != 1 {
		return nil, fmt.Errorf("%w: line %d: expected job count, got %d fields", ErrMalformed, line, len(head))
	}
	n, err := strconv.Atoi(head[0])
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: line %d: bad job count %q", ErrMalformed, line, head[0])
	}

	// n ещё не подтверждено строками файла: ёмкость ограничена, дальше растим через append.
	jobs := make([]machine.Job, 0, min(n, 1<<12))
	for i := 0; i < n; i++ {
		f, err := next()
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: expected %d jobs, got %d", ErrMalformed, n, i)
			}
			return nil, err
		}
		if len(f) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 3 fields, got %d", ErrMalformed, line, len(f))
		}
		var v [3]int
		for k := range v {
			v[k], err = strconv.Atoi(f[k])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: field %d: %q is not an integer", ErrMalformed, line, k+1, f[k])
			}
		}
		jobs = append(jobs, machine.Job{Proc: v[0], Release: v[1], Deadline: v[2]})
	}

	inst, err := machine.NewInstance(jobs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return inst, nil
}

func ReadFile(path string) (*machine.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func Write(w io.Writer, s machine.Schedule) error {
	bw := bufio.NewWriter(w)
	if s.Infeasible {
		if _, err := fmt.Fprintln(bw, Infeasible); err != nil {
			return err
		}
		return bw.Flush()
	}
	for _, st := range s.Start {
		if _, err := fmt.Fprintln(bw, st); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func WriteFile(path string, s machine.Schedule) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
