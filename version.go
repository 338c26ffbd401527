package llio

// Version identifies this build of the llio package.
const Version = "0.1.0"

// Namespace is the prefix of this package's debug log lines (cf. the
// "v2.0" namespace macros in the original AFIO/LLFIO implementation this
// package's contract descends from). The -llio.debug flag and the trace
// span names spell out the same "llio" prefix literally.
const Namespace = "llio"
