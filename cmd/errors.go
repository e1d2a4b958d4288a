// SPDX-License-Identifier: Apache-2.0

package cmd

import "errors"

// errNoDatabase is returned when the positional dbname argument is missing;
// cobra's Args validator already covers this, but commands built with a
// variable arg count check it again before touching a connection.
var errNoDatabase = errors.New("a database name is required")
