package recipients

import "errors"

var ErrNotFound = errors.New("no email address for employee")
