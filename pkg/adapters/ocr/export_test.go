package ocr

var WithEngine = withEngine
