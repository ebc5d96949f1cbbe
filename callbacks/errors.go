package callbacks

import "errors"

var ErrCallbackFailure = errors.New("callback failure")
