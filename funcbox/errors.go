package funcbox

import "errors"

// ErrEmptyCall is returned by Call when the box holds no callable.
// It is the only failure the container produces by itself: clone-hook
// failures and failures of the held callable propagate verbatim.
var ErrEmptyCall = errors.New("bad function call")
