package desktop

type Backend = backend

var WithBackend = withBackend
