/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package executor

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/shenwei356/xopen"
)

// concatenate writes the decompressed content of the Invocation's input
// files to its output, in input order. Glob patterns are expanded in lexical
// order and skip anything that isn't a regular file. A pattern matching
// nothing, or a missing plain input, is an *ArtifactError. Empty files are
// skipped.
func concatenate(inv Invocation) error {
	files, err := concatenationInputs(inv)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(inv.Output), dirPerm); err != nil {
		return err
	}

	w, err := xopen.Wopen(inv.Output)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err = appendFile(w, file); err != nil {
			w.Close()

			return err
		}
	}

	return w.Close()
}

func concatenationInputs(inv Invocation) ([]string, error) {
	if inv.Glob {
		return expandInputs(inv.Inputs)
	}

	return checkInputs(inv.Inputs)
}

func expandInputs(patterns []string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}

		found := 0

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}

			if !info.Mode().IsRegular() {
				continue
			}

			found++

			if info.Size() > 0 {
				files = append(files, match)
			}
		}

		if found == 0 {
			return nil, &ArtifactError{Path: pattern}
		}
	}

	return files, nil
}

func checkInputs(paths []string) ([]string, error) {
	files := make([]string, 0, len(paths))

	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ArtifactError{Path: path}
		}

		if err != nil {
			return nil, err
		}

		if !info.Mode().IsRegular() {
			return nil, &ArtifactError{Path: path}
		}

		if info.Size() > 0 {
			files = append(files, path)
		}
	}

	return files, nil
}

func appendFile(w io.Writer, path string) error {
	r, err := xopen.Ropen(path)
	if err != nil {
		return err
	}

	defer r.Close()

	_, err = io.Copy(w, r)

	return err
}

// copyFile copies src to dst, replacing dst if it exists.
func copyFile(src, dst string) error {
	srcFile, err := openSource(src)
	if err != nil {
		return err
	}

	defer srcFile.Close()

	if err = os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return err
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer dstFile.Close()

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	return dstFile.Close()
}

func openSource(src string) (*os.File, error) {
	f, err := os.Open(src)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &ArtifactError{Path: src}
	}

	return f, err
}

// moveFile moves src to dst, by rename if possible, otherwise by copying and
// removing the original.
func moveFile(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		return &ArtifactError{Path: src}
	}

	if err := checkExistingFile(src, dst); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return err
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	return copyAndRemove(src, dst)
}

// checkExistingFile allows dst to exist only if it is the same size as src,
// ie. it is probably the result of an earlier move that didn't clean up.
func checkExistingFile(src, dst string) error {
	dstInfo, err := os.Stat(dst)
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if srcInfo.Size() == dstInfo.Size() {
		return nil
	}

	return ErrDestDiffers
}

func copyAndRemove(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return err
	}

	return os.Remove(src)
}
