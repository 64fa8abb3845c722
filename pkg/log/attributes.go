package log

// Standard attribute keys for conformal prediction operations. Using these
// keys consistently keeps logs filterable by model, operation, and data
// shape across the library.
const (
	// ModelNameKey identifies the predictor type.
	// Examples: "Classifier", "Regressor"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "calibrate", "predict"
	OperationKey = "ml.operation"

	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct class labels known to a
	// conformal classifier.
	ClassesKey = "model.classes"

	// CategoriesKey indicates the number of Mondrian categories present in
	// the calibration set.
	CategoriesKey = "model.categories"

	// SignificanceKey is the significance level requested for a prediction.
	SignificanceKey = "ml.significance"
)
