package coordinatornode

func Finalize(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, ErrNilState
	}
	return GraphOutput{Result: in.Result}, nil
}
