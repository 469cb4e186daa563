package daybook

// Version of the daybook application and its tools.
const Version = "0.1.0"
