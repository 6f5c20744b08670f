package metrics

import (
	"gonum.org/v1/gonum/mat"
)

// Bundle は1つのモデル・1つのデータグループに対する評価指標の組
type Bundle struct {
	MAE float64 `json:"mae"`
	MSE float64 `json:"mse"`
	R2  float64 `json:"r2"`
}

// Scorer は交差検証で使うスコア関数。大きいほど良い。
type Scorer func(yTrue, yPred mat.Matrix) (float64, error)

// Evaluate は n×1 行列の正解値と予測値から MAE, MSE, R² を計算する
func Evaluate(yTrue, yPred mat.Matrix) (Bundle, error) {
	if _, err := MSEMatrix(yTrue, yPred); err != nil {
		return Bundle{}, err
	}
	t := toVec(yTrue)
	p := toVec(yPred)

	mae, err := MAE(t, p)
	if err != nil {
		return Bundle{}, err
	}
	mse, err := MSE(t, p)
	if err != nil {
		return Bundle{}, err
	}
	r2, err := R2Score(t, p)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{MAE: mae, MSE: mse, R2: r2}, nil
}

// NegMeanSquaredError は scikit-learn の "neg_mean_squared_error" と同じく
// MSE の符号を反転した値を返す
func NegMeanSquaredError(yTrue, yPred mat.Matrix) (float64, error) {
	mse, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return -mse, nil
}

func toVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
