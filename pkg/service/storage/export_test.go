package storage

var ObjectNameForTest = objectName
