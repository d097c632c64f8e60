package rewrite

import (
	"bufio"
	"os"

	"dpi.adpollak.net/internal/phys"
)

// RewriteFile rewrites the PNG at srcPath into dstPath, creating or
// truncating it. Both files are closed on every return path and close or
// flush failures are reported as IoFailure. On error dstPath may hold a
// partial file; removing it is up to the caller.
func (rw *Rewriter) RewriteFile(dstPath, srcPath string, dpi uint32) (res Result, retErr error) {
	if _, err := phys.FromDPI(dpi); err != nil {
		return res, &Error{Kind: InvalidDensity, Op: "validate dpi", Err: err}
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return res, &Error{Kind: IoFailure, Op: "open source", Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return res, &Error{Kind: IoFailure, Op: "create destination", Err: err}
	}
	defer func() {
		if err := out.Close(); err != nil && retErr == nil {
			retErr = &Error{Kind: IoFailure, Op: "close destination", Err: err}
		}
	}()

	w := bufio.NewWriterSize(out, 64*1024)
	res, err = rw.Rewrite(w, bufio.NewReader(in), dpi)
	if err != nil {
		return res, err
	}
	if err := w.Flush(); err != nil {
		return res, &Error{Kind: IoFailure, Op: "flush destination", Err: err}
	}
	return res, nil
}
