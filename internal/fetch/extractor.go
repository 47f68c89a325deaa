package fetch

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/bodgit/sevenzip" // For reading .7z archives
	"github.com/xi2/xz"          // For reading .xz compressed data
	"pysetup/internal/logger"
)

// archiveSuffixes lists every archive type ExtractFile understands.
var archiveSuffixes = []string{".zip", ".7z", ".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz"}

// ErrNotInArchive is returned when the requested file is missing from an archive.
var ErrNotInArchive = errors.New("file not found in archive")

// IsArchive reports whether name has an extension ExtractFile can open.
func IsArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveSuffixes {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ExtractFile finds the first regular file whose base name equals name inside
// the archive at src and writes it to dest. Only that entry is written, to the
// caller's path, so entry paths inside the archive never touch the filesystem.
func ExtractFile(src, name, dest string) error {
	lower := strings.ToLower(src)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		logger.Debug("[DEBUG] compression type is zip\n")
		return extractFromZip(src, name, dest)
	case strings.HasSuffix(lower, ".7z"):
		logger.Debug("[DEBUG] compression type is .7z\n")
		return extractFrom7z(src, name, dest)
	case IsArchive(lower):
		logger.Debug("[DEBUG] compression type is .tar.*\n")
		return extractFromTar(src, name, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", src)
	}
}

// extractFromTar handles tar and its compressed variants.
func extractFromTar(src, name, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	lower := strings.ToLower(src)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(lower, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(lower, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg || path.Base(hdr.Name) != name {
			continue
		}
		logger.Debug("[DEBUG] Found %s in %s\n", hdr.Name, src)
		return writeFile(dest, tr)
	}
	return fmt.Errorf("%s in %s: %w", name, src, ErrNotInArchive)
}

// extractFromZip pulls one file out of a .zip archive.
func extractFromZip(src, name, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		logger.Debug("[DEBUG] Found %s in %s\n", f.Name, src)
		return writeFile(dest, rc)
	}
	return fmt.Errorf("%s in %s: %w", name, src, ErrNotInArchive)
}

// extractFrom7z pulls one file out of a .7z archive using the sevenzip library.
func extractFrom7z(src, name, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		logger.Debug("[DEBUG] Found %s in %s\n", f.Name, src)
		return writeFile(dest, rc)
	}
	return fmt.Errorf("%s in %s: %w", name, src, ErrNotInArchive)
}

func writeFile(dest string, r io.Reader) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dest, err)
	}
	return out.Close()
}
