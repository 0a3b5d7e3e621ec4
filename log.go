package kumiai

import "github.com/tliron/commonlog"

// log is the engine logger. The engine never configures a backend; binaries
// choose one (see cmd/kumiai).
var log = commonlog.GetLogger("kumiai")
