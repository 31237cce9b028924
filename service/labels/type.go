package labels

// IService produces the ordered label set the classification model was
// trained with. Order is significant: index i lines up with probability i of
// the model's output vector.
type IService interface {
	Load() ([]string, error)
}
