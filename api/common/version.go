package common

// Version of kvapp, reported by the index route and the version command.
const Version = "0.4.0"
