package usecase

// ExportObjectName is exported for testing
var ExportObjectName = exportObjectName
