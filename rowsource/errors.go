package rowsource

import "github.com/dajobe/rasqal-sub006/rerror"

// errReset is returned when Reset is called on an operator that was
// never told (via SetRequirements(true)) that it would be reset —
// without this, reset is a fatal error.
var errReset = rerror.New(rerror.KindSchema, "reset called without a prior SetRequirements(true)")
